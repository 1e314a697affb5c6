package store

import (
	"time"

	"github.com/uptrace/bun"
)

// Clip is one stored clipboard capture. Content holds the text, the joined
// path list, or the image-cache path depending on Kind.
type Clip struct {
	bun.BaseModel `bun:"table:clips"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Kind       string    `bun:"kind,notnull" json:"kind"`
	Content    string    `bun:"content" json:"content"`
	SourceApp  string    `bun:"source_app" json:"source_app,omitempty"`
	WasTrimmed bool      `bun:"was_trimmed,default:false" json:"was_trimmed"`
	Hash       string    `bun:"hash,unique,notnull" json:"-"`
	Pinned     bool      `bun:"pinned,default:false" json:"pinned"`
	Size       int       `bun:"size,notnull" json:"size"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// metaEntry is a key/value row for store-level bookkeeping such as the
// last-maintenance timestamp.
type metaEntry struct {
	bun.BaseModel `bun:"table:meta"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value"`
}

const metaLastCleanup = "last_cleanup"
