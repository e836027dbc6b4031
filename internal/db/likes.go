package db

import (
	"encoding/json"
	"slices"
	"strings"

	"gorm.io/datatypes"
)

// LikeSet is the ordered set of user ids that liked a record.
type LikeSet []uint

// DecodeLikeSet parses a JSON column into a LikeSet. Empty columns decode to an empty set.
func DecodeLikeSet(raw datatypes.JSON) (LikeSet, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return LikeSet{}, nil
	}

	var ids []uint
	if err := json.Unmarshal([]byte(trimmed), &ids); err != nil {
		return nil, err
	}

	set := make(LikeSet, 0, len(ids))
	for _, id := range ids {
		if !set.Has(id) {
			set = append(set, id)
		}
	}
	return set, nil
}

// Encode serializes the set for storage.
func (s LikeSet) Encode() (datatypes.JSON, error) {
	if s == nil {
		s = LikeSet{}
	}
	encoded, err := json.Marshal([]uint(s))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}

// Has reports whether id is a member.
func (s LikeSet) Has(id uint) bool {
	return slices.Contains(s, id)
}

// Len returns the member count.
func (s LikeSet) Len() int {
	return len(s)
}

// Toggle adds id when absent and removes it when present.
// It returns the new set and whether id is a member afterwards.
func (s LikeSet) Toggle(id uint) (LikeSet, bool) {
	idx := slices.Index(s, id)
	if idx >= 0 {
		next := make(LikeSet, 0, len(s)-1)
		next = append(next, s[:idx]...)
		next = append(next, s[idx+1:]...)
		return next, false
	}

	next := make(LikeSet, 0, len(s)+1)
	next = append(next, s...)
	next = append(next, id)
	return next, true
}
