package domain

type VersionInfo struct {
	SHA       string `json:"sha"`
	Runtime   string `json:"runtime"`
	Env       string `json:"env"`
	Timestamp string `json:"timestamp"`
}
