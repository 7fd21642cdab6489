package dto

import "time"

type BeginInput struct {
	UserID  string
	SportID string
}

type ResultOutput struct {
	TechnicalScore  float64
	ScoreDisplay    string
	Summary         string
	DetailedFlaws   []string
	EquipmentAdvice string
}

type StateOutput struct {
	Phase        string
	Feedback     string
	HasClip      bool
	ClipPath     string
	ClipDuration time.Duration
	Result       *ResultOutput
}

type AnalyzeFileInput struct {
	UserID  string
	SportID string
	Path    string
}

type HistoryItemOutput struct {
	ID           string
	SportID      string
	ScoreDisplay string
	Summary      string
	CreatedAt    time.Time
}
