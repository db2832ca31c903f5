package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MediaKind tags the concrete media variant of an item.
type MediaKind string

const (
	KindPhoto         MediaKind = "photo"
	KindVideo         MediaKind = "video"
	KindAnimation     MediaKind = "animation"
	KindDocumentImage MediaKind = "document_image"
)

// MediaItem is an immutable reference to one media message. FileID is
// the Telegram download handle, FileUniqueID is stable across chats.
type MediaItem struct {
	FileID       string    `json:"file_id"`
	FileUniqueID string    `json:"file_unique_id"`
	Kind         MediaKind `json:"media_type"`
}

// SourceMeta describes where a forwarded message originally came from.
// Zero value means the sender posted the media directly.
type SourceMeta struct {
	Name string `json:"source_name,omitempty"`
	ID   int64  `json:"source_id,omitempty"`
	Link string `json:"source_link,omitempty"`
	Kind string `json:"source_kind,omitempty"` // "channel", "group", "user"
}

// GroupKey uniquely identifies an in-flight media group aggregation.
type GroupKey struct {
	ChatID  int64
	GroupID string
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%d_%s", k.ChatID, k.GroupID)
}

// ParseGroupKey reverses GroupKey.String for persisted map keys.
func ParseGroupKey(s string) (GroupKey, error) {
	id, group, ok := strings.Cut(s, "_")
	if !ok {
		return GroupKey{}, fmt.Errorf("malformed group key %q", s)
	}
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return GroupKey{}, fmt.Errorf("malformed group key %q: %w", s, err)
	}
	return GroupKey{ChatID: chatID, GroupID: group}, nil
}

// GroupRecord is the durable state of one media group being collected.
// Items only grows, by append, while the record exists.
type GroupRecord struct {
	ChatID          int64       `json:"chat_id"`
	UserID          int64       `json:"user_id"`
	UserName        string      `json:"user_name"`
	GroupID         string      `json:"media_group_id"`
	Items           []MediaItem `json:"items"`
	FirstSeenAt     time.Time   `json:"first_time"`
	StatusMessageID int         `json:"status_message_id,omitempty"`
	SourceMeta
}

func (r *GroupRecord) Key() GroupKey {
	return GroupKey{ChatID: r.ChatID, GroupID: r.GroupID}
}
