package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"formai/internal/modules/capture/domain"
	captureout "formai/internal/modules/capture/port/out"
	apperrors "formai/internal/platform/errors"
)

// HTTPAnalyzer uploads clips to the backend's deep-analysis endpoint.
// It never retries on its own; the caller decides whether a resubmission
// is worth a second server-side analysis run.
type HTTPAnalyzer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAnalyzer(baseURL string) captureout.Analyzer {
	return &HTTPAnalyzer{
		baseURL: baseURL,
		// Deep analysis runs a model server-side; allow it far longer
		// than the control-plane endpoints get.
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

type analyzeResponse struct {
	TechnicalScore  float64  `json:"technical_score"`
	Summary         string   `json:"summary"`
	DetailedFlaws   []string `json:"detailed_flaws"`
	EquipmentAdvice string   `json:"equipment_advice"`
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, userID, sportID string, clip domain.Clip) (domain.AnalysisResult, error) {
	file, err := os.Open(clip.Path)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("open clip %s: %w", clip.Path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(clip.Path))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("read clip %s: %w", clip.Path, err)
	}
	if err := form.WriteField("user_id", userID); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("build upload form: %w", err)
	}
	if err := form.WriteField("sport_id", sportID); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/session/analyze/deep", &body)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.AnalysisResult{}, remoteError(resp)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analyze response: %w", err)
	}
	return domain.AnalysisResult{
		TechnicalScore:  decoded.TechnicalScore,
		Summary:         decoded.Summary,
		DetailedFlaws:   decoded.DetailedFlaws,
		EquipmentAdvice: decoded.EquipmentAdvice,
	}, nil
}

// remoteError normalizes an error response, surfacing the backend's
// human-readable detail field verbatim when present.
func remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(raw, &payload)
	return &apperrors.Remote{Status: resp.StatusCode, Detail: payload.Detail}
}
