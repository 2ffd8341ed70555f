package testdata

type StringArray []string

type Recipe struct {
	ID    int         `db:"id,primaryKey"`
	Name  string      `db:"name"`
	Steps StringArray `db:"steps"`
	Owner *User       `rel:"belongs_to,foreign_key:owner_id"`
}
