package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ParticipantRef is an opaque bracket slot: an id plus a display name.
// The generator and the standings aggregator only ever see refs; resolving a
// ref to the concrete Team or Player aggregate is the registry's job.
type ParticipantRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ParticipantRefList is stored as a JSONB column. Order is significant: it is
// the registration order and therefore the seeding order.
type ParticipantRefList []ParticipantRef

func (l ParticipantRefList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ParticipantRefList) Scan(src interface{}) error {
	if src == nil {
		*l = ParticipantRefList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ParticipantRefList", src)
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether the list holds a ref with the given id.
func (l ParticipantRefList) Contains(id int) bool {
	for _, ref := range l {
		if ref.ID == id {
			return true
		}
	}
	return false
}
