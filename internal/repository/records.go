// internal/repository/records.go
package repository

import (
	"encoding/json"
	"strconv"
	"time"
)

// RecordRef is an opaque record identifier as it appears on the wire. The
// record store has emitted ids as strings, as numbers, and as embedded
// lookup objects carrying an Id; all three decode to a normalized string so
// equality checks downstream never care about the source shape.
type RecordRef string

func (r *RecordRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RecordRef(s)
	case '{':
		var obj struct {
			ID RecordRef `json:"Id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = obj.ID
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = RecordRef(n.String())
	}
	return nil
}

func (r RecordRef) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(string(r))), nil
}

func (r RecordRef) String() string {
	return string(r)
}

// TaskRecord is the storage shape of a task. Field names follow the record
// store's schema; the translation to models.Task happens in TaskRepository
// and nowhere else.
type TaskRecord struct {
	ID          RecordRef  `json:"Id,omitempty"`
	Name        string     `json:"Name"`
	Description string     `json:"description_c,omitempty"`
	Completed   bool       `json:"completed_c"`
	Status      string     `json:"status_c,omitempty"`
	Priority    string     `json:"priority_c,omitempty"`
	CategoryID  RecordRef  `json:"category_id_c,omitempty"`
	DueDate     *time.Time `json:"due_date_c,omitempty"`
	CreatedAt   *time.Time `json:"created_at_c,omitempty"`
	CompletedAt *time.Time `json:"completed_at_c,omitempty"`
}

func (r TaskRecord) RecordID() string { return string(r.ID) }

func (r TaskRecord) WithRecordID(id string) TaskRecord {
	r.ID = RecordRef(id)
	return r
}

func (r TaskRecord) Clone() TaskRecord {
	out := r
	out.DueDate = cloneTime(r.DueDate)
	out.CreatedAt = cloneTime(r.CreatedAt)
	out.CompletedAt = cloneTime(r.CompletedAt)
	return out
}

// TaskRecordPatch is a partial task update. Nil fields preserve the stored
// value; the Clear flags send an explicit null for fields that can be unset.
type TaskRecordPatch struct {
	Name        *string    `json:"Name,omitempty"`
	Description *string    `json:"description_c,omitempty"`
	Completed   *bool      `json:"completed_c,omitempty"`
	Status      *string    `json:"status_c,omitempty"`
	Priority    *string    `json:"priority_c,omitempty"`
	CategoryID  *RecordRef `json:"category_id_c,omitempty"`
	DueDate     *time.Time `json:"due_date_c,omitempty"`
	CompletedAt *time.Time `json:"completed_at_c,omitempty"`

	ClearCategoryID  bool `json:"-"`
	ClearDueDate     bool `json:"-"`
	ClearCompletedAt bool `json:"-"`
}

func (p TaskRecordPatch) Apply(rec TaskRecord) TaskRecord {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Completed != nil {
		rec.Completed = *p.Completed
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.Priority != nil {
		rec.Priority = *p.Priority
	}
	if p.CategoryID != nil {
		rec.CategoryID = *p.CategoryID
	}
	if p.DueDate != nil {
		rec.DueDate = cloneTime(p.DueDate)
	}
	if p.CompletedAt != nil {
		rec.CompletedAt = cloneTime(p.CompletedAt)
	}
	if p.ClearCategoryID {
		rec.CategoryID = ""
	}
	if p.ClearDueDate {
		rec.DueDate = nil
	}
	if p.ClearCompletedAt {
		rec.CompletedAt = nil
	}
	return rec
}

// MarshalJSON emits only the set fields, plus explicit nulls for cleared
// ones, so the remote store's merge semantics match Apply.
func (p TaskRecordPatch) MarshalJSON() ([]byte, error) {
	type alias TaskRecordPatch
	encoded, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, err
	}
	if p.ClearCategoryID {
		fields["category_id_c"] = nil
	}
	if p.ClearDueDate {
		fields["due_date_c"] = nil
	}
	if p.ClearCompletedAt {
		fields["completed_at_c"] = nil
	}
	return json.Marshal(fields)
}

// CategoryRecord is the storage shape of a category. taskCount never
// appears here; it is derived from the task set on read.
type CategoryRecord struct {
	ID    RecordRef `json:"Id,omitempty"`
	Name  string    `json:"Name"`
	Color string    `json:"color_c,omitempty"`
}

func (r CategoryRecord) RecordID() string { return string(r.ID) }

func (r CategoryRecord) WithRecordID(id string) CategoryRecord {
	r.ID = RecordRef(id)
	return r
}

func (r CategoryRecord) Clone() CategoryRecord { return r }

type CategoryRecordPatch struct {
	Name  *string `json:"Name,omitempty"`
	Color *string `json:"color_c,omitempty"`
}

func (p CategoryRecordPatch) Apply(rec CategoryRecord) CategoryRecord {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Color != nil {
		rec.Color = *p.Color
	}
	return rec
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}
