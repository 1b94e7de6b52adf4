package domain

type LogEntry struct {
	IP        string
	Timestamp int64
	Username  string
	Message   string
}

type Report struct {
	ID        int64
	BoardID   BoardID
	PostID    PostID
	Timestamp int64
}

// Selection is a parsed "{board_id}/{post_id}" token.
type Selection struct {
	Token   string
	BoardID BoardID
	PostID  PostID
}

type ImportTableType string

const (
	ImportTinyIBAccounts ImportTableType = "tinyib_accounts"
	ImportTinyIBPosts    ImportTableType = "tinyib_posts"
)

// ImportParams describes the legacy table to copy rows from.
type ImportParams struct {
	DBName    string          `json:"db_name"`
	TableName string          `json:"table_name"`
	TableType ImportTableType `json:"table_type"`
	BoardID   BoardID         `json:"board_id"`
}
