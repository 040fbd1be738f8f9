// Package adapters はaccountsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"greetings_backend/internal/feature/accounts/domain"
	"greetings_backend/internal/feature/accounts/domain/entity"
	"greetings_backend/internal/feature/accounts/usecase"
)

// userPostgres はUserRepositoryインターフェースのPostgreSQL実装です。
// GORMを使用してデータベース操作を行います。
type userPostgres struct {
	db *gorm.DB
}

// userPostgresがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userPostgres)(nil)

// NewUserPostgres は指定されたgorm.DB接続でuserPostgresの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserPostgres(db *gorm.DB) *userPostgres {
	return &userPostgres{db: db}
}

// isUniqueViolation はユニーク制約違反かどうかを判定します。
// PostgreSQLエラー23505: ユニークキーの重複エントリ
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// テストで使用するSQLiteドライバ向け（TranslateError有効時）
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Create はユーザーをデータベースに追加します。
// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrEmailAlreadyExistsを返します。
func (r *userPostgres) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userPostgres) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userPostgres) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByGoogleID は外部IDでユーザーを取得します。
func (r *userPostgres) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return r.findOne(ctx, "google_id = ?", googleID)
}

// FindByIdentifier はメールアドレスまたは外部IDに一致するユーザーを取得します。
func (r *userPostgres) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	return r.findOne(ctx, "email = ? OR google_id = ?", identifier, identifier)
}

// FindByRefreshToken はリフレッシュトークンでユーザーを取得します。
func (r *userPostgres) FindByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, "refresh_token = ?", token)
}

func (r *userPostgres) findOne(ctx context.Context, cond string, args ...any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(cond, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save はユーザーの全フィールドを保存します。
// NULLへの更新（確認コードのクリア等）を含むため、Updatesではなく全カラム保存を使用します。
func (r *userPostgres) Save(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Delete は指定IDのユーザーを物理削除します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userPostgres) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClearRefreshToken は保存されたリフレッシュトークンをNULLにします。
// 既にNULLの場合も成功します（冪等）。
func (r *userPostgres) ClearRefreshToken(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("refresh_token", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List は検索・ロール絞り込み・ページング付きでユーザー一覧と総件数を返します。
// 検索はLOWER + LIKEによる部分一致で、PostgreSQLとSQLite（テスト）の両方で同じSQLが動きます。
func (r *userPostgres) List(ctx context.Context, query usecase.ListQuery) ([]entity.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.User{})

	if query.Search != "" {
		term := "%" + strings.ToLower(query.Search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			term, term, term,
		)
	}
	if query.Role != "" {
		q = q.Where("role = ?", query.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entity.User
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
