package testdata

type Account struct {
	UID  string `db:"uid,primaryKey"`
	Name string `db:"name"`
}

type Session struct {
	ID         int      `db:"id,primaryKey"`
	AccountUID string   `db:"account_uid"`
	Account    *Account `rel:"belongs_to,foreign_key:account_uid"`
}

type Team struct {
	ID       int       `db:"id,primaryKey"`
	Name     string    `db:"name"`
	Accounts []Account `rel:"many_to_many,join_table:team_accounts,foreign_key:team_id,references:account_uid"`
}
