package models

// Summary 是对一个人的简短总结和两条有趣的事实。
type Summary struct {
	Summary string   `json:"summary" jsonschema:"description=summary" validate:"required"`
	Facts   []string `json:"facts" jsonschema:"description=interesting facts about them" validate:"required"`
}

// ToMap 返回可直接序列化为 JSON 的形式。
func (s Summary) ToMap() map[string]any {
	return map[string]any{"summary": s.Summary, "facts": nonNil(s.Facts)}
}

// IceBreaker 是用于开启对话的破冰话题列表。
type IceBreaker struct {
	IceBreakers []string `json:"ice_breakers" jsonschema:"description=ice breaker list" validate:"required"`
}

func (i IceBreaker) ToMap() map[string]any {
	return map[string]any{"ice_breakers": nonNil(i.IceBreakers)}
}

// TopicOfInterest 是这个人可能感兴趣的话题。
type TopicOfInterest struct {
	TopicsOfInterest []string `json:"topics_of_interest" jsonschema:"description=topic that might interest the person" validate:"required"`
}

func (t TopicOfInterest) ToMap() map[string]any {
	return map[string]any{"topics_of_interest": nonNil(t.TopicsOfInterest)}
}

// IceBreakResult 是一次完整流水线运行的结果。
type IceBreakResult struct {
	Summary     Summary
	Interests   TopicOfInterest
	IceBreakers IceBreaker
	PictureURL  *string
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
