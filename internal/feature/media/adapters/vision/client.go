// Package vision はGoogle Cloud Vision APIを使用したセーフサーチ判定クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"greetings_backend/internal/feature/media/usecase"
)

// VisionSafeSearch はGoogle Cloud Vision APIを使用して画像コンテンツを判定します。
type VisionSafeSearch struct {
	client *gvision.ImageAnnotatorClient
}

// VisionSafeSearchがSafeSearchClientを実装していることをコンパイル時に検証します。
var _ usecase.SafeSearchClient = (*VisionSafeSearch)(nil)

// NewVisionSafeSearch はADCを使用してVisionSafeSearchの新しいインスタンスを生成します。
func NewVisionSafeSearch(ctx context.Context) (*VisionSafeSearch, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionSafeSearch{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionSafeSearch) Close() error {
	return v.client.Close()
}

// Screen はURLで参照される画像のセーフサーチ判定を実行します。
func (v *VisionSafeSearch) Screen(ctx context.Context, imageURL string) (*usecase.ScreenResult, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{
					Source: &visionpb.ImageSource{ImageUri: imageURL},
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 || resp.Responses[0].SafeSearchAnnotation == nil {
		return nil, fmt.Errorf("vision API returned no safe search annotation")
	}

	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	ann := resp.Responses[0].SafeSearchAnnotation
	return &usecase.ScreenResult{
		Adult:    ann.Adult.String(),
		Violence: ann.Violence.String(),
	}, nil
}
