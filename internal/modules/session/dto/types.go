package dto

type LoginInput struct {
	Username string
	Password string
}

type RegisterInput struct {
	Username   string
	Password   string
	Email      string
	FullName   string
	SportID    string
	SkillLevel string
}

type OnboardInput struct {
	SportID       string
	SkillLevel    string
	PreserveSkill bool
}

type SportOutput struct {
	SportID     string
	DisplayName string
	ThemeColor  string
	SkillLevel  string
}

type StatsOutput struct {
	Tier            string
	Points          int
	AccuracyPercent float64
}

type ProfileOutput struct {
	FullName string
	Username string
}

type SnapshotOutput struct {
	UserID       string
	Loading      bool
	Onboarded    bool
	Sport        SportOutput
	Stats        StatsOutput
	Profile      ProfileOutput
	ReloadFailed bool
	Nav          string
}
