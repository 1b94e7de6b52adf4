package domain

type BoardID = string
type PostID = int64

// Post is a single post as stored in the posts table.
// ParentID == 0 marks a thread root. Empty File/Thumb mean the post has none.
type Post struct {
	BoardID   BoardID
	PostID    PostID
	ParentID  PostID
	Name      string
	Tripcode  string
	Email     string
	Subject   string
	Message   string
	File      string // local path, or the remote url when Embed is set
	FileHex   string // content hash shared by deduplicated uploads
	Thumb     string
	Embed     bool
	Imported  bool
	Role      int
	Timestamp int64
	Bumped    int64
	Locked    bool
	Stickied  bool
}

func (p *Post) IsThread() bool {
	return p.ParentID == 0
}

// RebuildPost carries the rendered columns written back by a rebuild.
type RebuildPost struct {
	BoardID          BoardID
	PostID           PostID
	MessageRendered  string
	MessageTruncated bool
	Nameblock        string
	FileRendered     string
}

// RenderedMessage is the output of the message renderer.
type RenderedMessage struct {
	Rendered  string
	Truncated bool
}
