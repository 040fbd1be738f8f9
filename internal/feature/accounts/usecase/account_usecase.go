// Package usecase はaccountsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"greetings_backend/internal/feature/accounts/domain"
	"greetings_backend/internal/feature/accounts/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// defaultListLimit / maxListLimit は一覧取得のページサイズの既定値と上限です。
	defaultListLimit = 20
	maxListLimit     = 100
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByGoogleID は指定された外部IDに一致するユーザーを取得します。
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)

	// FindByIdentifier はメールアドレスまたは外部IDのいずれかに一致するユーザーを取得します。
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)

	// FindByRefreshToken は指定されたリフレッシュトークンを保持するユーザーを取得します。
	FindByRefreshToken(ctx context.Context, token string) (*entity.User, error)

	// Save はユーザーの全フィールドを保存します。
	Save(ctx context.Context, user *entity.User) error

	// Delete は指定されたIDのユーザーを物理削除します。
	Delete(ctx context.Context, id uint) error

	// ClearRefreshToken は保存されたリフレッシュトークンをNULLにします。
	ClearRefreshToken(ctx context.Context, id uint) error

	// List は検索・ロール絞り込み・ページング付きでユーザー一覧と総件数を返します。
	List(ctx context.Context, query ListQuery) ([]entity.User, int64, error)
}

// ConfirmationMailer は確認メールの送信を抽象化します。
// ワンタイムコードの生成はメーラー側が担い、永続化は本サービスが担います。
type ConfirmationMailer interface {
	// SendConfirmationEmail は確認コードを生成・送信し、そのコードを返します。
	SendConfirmationEmail(ctx context.Context, email string, userID uint) (string, error)
}

// NewAccount はローカルアカウント作成の入力です。
type NewAccount struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// NewGoogleAccount は外部ID連携アカウント作成の入力です。
type NewGoogleAccount struct {
	GoogleID  string
	Email     string
	FirstName string
	LastName  string
}

// AccountUpdate は部分更新の入力です。nilのフィールドは変更されません。
type AccountUpdate struct {
	FirstName *string
	LastName  *string
	Role      *string
}

// ListQuery は一覧取得の条件です。
type ListQuery struct {
	Limit  int
	Offset int
	Search string
	Role   string
}

// AccountPage は一覧取得の結果ページです。
type AccountPage struct {
	Users      []entity.PublicUser `json:"users"`
	TotalCount int64               `json:"total_count"`
	// NextOffset は最終ページでnilになります。
	NextOffset *int `json:"next_offset"`
}

// accountUsecase はアカウントのライフサイクル（作成・確認・検索・削除）を実装します。
// データベースアクセスはすべて本サービスを経由します。
type accountUsecase struct {
	users  UserRepository
	mailer ConfirmationMailer
	otpTTL time.Duration
}

// NewAccountUsecase はaccountUsecaseの新しいインスタンスを生成します。
func NewAccountUsecase(users UserRepository, mailer ConfirmationMailer, otpTTL time.Duration) *accountUsecase {
	if otpTTL <= 0 {
		otpTTL = 15 * time.Minute
	}
	return &accountUsecase{users: users, mailer: mailer, otpTTL: otpTTL}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Create はハッシュ化されたパスワードで新規ローカルアカウントを登録します。
// 確認コードの発行と有効期限は同一INSERTで書き込まれるため、
// コード未設定のユーザー行が残る中間状態は存在しません。
func (u *accountUsecase) Create(ctx context.Context, in NewAccount) (*entity.User, error) {
	if in.Email == "" || in.FirstName == "" {
		return nil, fmt.Errorf("email and first name are required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hashed),
		Role:      entity.RoleUser,
	}

	// メール送信に失敗した場合、行は作成されない
	otp, err := u.mailer.SendConfirmationEmail(ctx, user.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch confirmation email: %w", err)
	}
	if err := user.IssueConfirmationCode(otp, time.Now().Add(u.otpTTL)); err != nil {
		return nil, err
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGoogle は外部IDで認証済みのアカウントを作成します。
// 外部プロバイダのメールアドレスは検証済みとみなし、確認コードは発行しません。
func (u *accountUsecase) CreateGoogle(ctx context.Context, in NewGoogleAccount) (*entity.User, error) {
	if in.GoogleID == "" || in.Email == "" {
		return nil, fmt.Errorf("google id and email are required")
	}
	googleID := in.GoogleID
	user := &entity.User{
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		GoogleID:       &googleID,
		Role:           entity.RoleUser,
		EmailConfirmed: true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResendConfirmation は既存ユーザーの確認コードを再生成・再送信します。
// 保留中のコードは上書きされ、旧コードは即座に無効になります。
func (u *accountUsecase) ResendConfirmation(ctx context.Context, id uint) error {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("cannot resend confirmation for user %d: %w", id, domain.ErrUserNotFound)
		}
		return err
	}
	if user.EmailConfirmed {
		return domain.ErrAlreadyConfirmed
	}

	otp, err := u.mailer.SendConfirmationEmail(ctx, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to dispatch confirmation email: %w", err)
	}
	if err := user.IssueConfirmationCode(otp, time.Now().Add(u.otpTTL)); err != nil {
		return err
	}
	return u.users.Save(ctx, user)
}

// VerifyEmail は確認コードを検証し、成功時にアカウントを確認済み状態へ遷移させます。
// コード不一致・期限切れ・ユーザー不在はいずれも同一のエラーを返し、レコードは変更されません。
func (u *accountUsecase) VerifyEmail(ctx context.Context, id uint, code string) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	if err := user.ConfirmEmail(code, time.Now()); err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID はIDでユーザーを取得します。
func (u *accountUsecase) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// GetByEmail はメールアドレスでユーザーを取得します。
func (u *accountUsecase) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return u.users.FindByEmail(ctx, email)
}

// GetByGoogleID は外部IDでユーザーを取得します。
func (u *accountUsecase) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return u.users.FindByGoogleID(ctx, googleID)
}

// FindForAuth はメールアドレスまたは外部IDで認証対象ユーザーを検索します。
// ローカル・外部IDの両方を単一のログインエンドポイントで扱うための入口です。
func (u *accountUsecase) FindForAuth(ctx context.Context, identifier string) (*entity.User, error) {
	return u.users.FindByIdentifier(ctx, identifier)
}

// FindByRefreshToken はリフレッシュトークンでユーザーを検索します。
func (u *accountUsecase) FindByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	return u.users.FindByRefreshToken(ctx, token)
}

// StoreRefreshToken はログイン時に発行されたリフレッシュトークンを保存します。
func (u *accountUsecase) StoreRefreshToken(ctx context.Context, id uint, token string) error {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.RefreshToken = &token
	return u.users.Save(ctx, user)
}

// RevokeRefreshToken は保存されたリフレッシュトークンを無効化します。冪等です。
func (u *accountUsecase) RevokeRefreshToken(ctx context.Context, id uint) error {
	return u.users.ClearRefreshToken(ctx, id)
}

// Update は指定フィールドのみを更新します。
func (u *accountUsecase) Update(ctx context.Context, id uint, in AccountUpdate) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Role != nil {
		if *in.Role != entity.RoleUser && *in.Role != entity.RoleAdmin {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, *in.Role)
		}
		user.Role = *in.Role
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete は指定IDのユーザーを物理削除します。
func (u *accountUsecase) Delete(ctx context.Context, id uint) error {
	return u.users.Delete(ctx, id)
}

// List は管理画面向けのページング付きユーザー一覧を返します。
// 検索は名・姓・メールアドレスに対する大文字小文字を区別しない部分一致です。
// 返却される行に認証情報・確認コード関連のカラムは含まれません。
func (u *accountUsecase) List(ctx context.Context, query ListQuery) (*AccountPage, error) {
	if query.Limit <= 0 {
		query.Limit = defaultListLimit
	}
	if query.Limit > maxListLimit {
		query.Limit = maxListLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	query.Search = strings.TrimSpace(query.Search)

	users, total, err := u.users.List(ctx, query)
	if err != nil {
		return nil, err
	}

	page := &AccountPage{
		Users:      make([]entity.PublicUser, 0, len(users)),
		TotalCount: total,
	}
	for i := range users {
		page.Users = append(page.Users, users[i].Public())
	}

	// オフセットベースのページングカーソル: 最終ページでnil
	if int64(query.Offset+len(users)) < total {
		next := query.Offset + query.Limit
		page.NextOffset = &next
	}

	return page, nil
}
