package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// StringArray stores a string slice portably across PostgreSQL, MySQL
// and SQLite. Values are written as JSON; scanning also accepts the
// native PostgreSQL array format for pre-existing rows.
type StringArray []string

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return a.scanBytes(v)
	case string:
		return a.scanBytes([]byte(v))
	default:
		return errors.New("StringArray: unsupported scan type")
	}
}

func (a *StringArray) scanBytes(data []byte) error {
	str := string(data)

	if strings.HasPrefix(str, "[") {
		return json.Unmarshal(data, a)
	}

	// PostgreSQL array format: {item1,item2}
	if strings.HasPrefix(str, "{") && strings.HasSuffix(str, "}") {
		str = strings.TrimPrefix(str, "{")
		str = strings.TrimSuffix(str, "}")
		if str == "" {
			*a = []string{}
			return nil
		}
		*a = strings.Split(str, ",")
		return nil
	}

	*a = []string{str}
	return nil
}

// Value implements driver.Valuer.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// GormDataType returns the GORM data type hint.
func (StringArray) GormDataType() string {
	return "text"
}
