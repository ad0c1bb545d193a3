package dto

// ── 学分汇总 DTO ──

// CategorySummary 单个学位要求类别的学分进度
type CategorySummary struct {
	Type      string `json:"type"`
	Earned    int    `json:"earned"`    // 已修完课程的学分合计
	Planned   int    `json:"planned"`   // 计划中（含未修完）的学分合计
	Required  int    `json:"required"`  // 培养方案要求学分
	Remaining int    `json:"remaining"` // 尚缺学分（不为负）
}

// SummaryResponse 学分汇总响应
type SummaryResponse struct {
	Plan          string            `json:"plan"`
	Categories    []CategorySummary `json:"categories"`
	TotalEarned   int               `json:"total_earned"`
	TotalRequired int               `json:"total_required"`
}
