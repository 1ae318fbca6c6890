package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserUsernameColumn     = "username"
	UserEmailColumn        = "email"
	UserPasswordHashColumn = "password_hash"
	UserCreatedAtColumn    = "created_at"
)

const (
	PostsTableName = "posts"

	PostIDColumn          = "id"
	PostTitleColumn       = "title"
	PostDescriptionColumn = "description"
	PostUserIDColumn      = "user_id"
	PostCommentIDsColumn  = "comment_ids"
	PostCreatedAtColumn   = "created_at"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn        = "id"
	CommentBodyColumn      = "body"
	CommentUserIDColumn    = "user_id"
	CommentCreatedAtColumn = "created_at"
)
