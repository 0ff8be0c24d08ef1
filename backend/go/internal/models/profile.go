package models

import (
	"fmt"
	"strings"
)

// ProfileRecord 是抓取到的个人资料的原始字段映射。
type ProfileRecord map[string]any

// Profile 是 ProfileRecord 的类型化视图，流水线只读取其中少数字段。
type Profile struct {
	Name     string
	Headline string
	Summary  string
	PhotoURL string
	Record   ProfileRecord
}

// NewProfile 从清洗后的记录构造 Profile。
// 记录中缺少 name（或 firstName/lastName）时视为上游响应格式错误。
func NewProfile(record ProfileRecord) (*Profile, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: empty profile record", ErrUpstream)
	}
	name := stringField(record, "name")
	if name == "" {
		name = strings.TrimSpace(stringField(record, "firstName") + " " + stringField(record, "lastName"))
	}
	if name == "" {
		return nil, fmt.Errorf("%w: profile record has no name", ErrUpstream)
	}
	return &Profile{
		Name:     name,
		Headline: stringField(record, "headline"),
		Summary:  stringField(record, "summary"),
		PhotoURL: stringField(record, "photoUrl"),
		Record:   record,
	}, nil
}

// PictureURL 返回头像地址，不存在时返回 nil。
func (p *Profile) PictureURL() *string {
	if p == nil || p.PhotoURL == "" {
		return nil
	}
	u := p.PhotoURL
	return &u
}

func stringField(r ProfileRecord, key string) string {
	s, _ := r[key].(string)
	return s
}
