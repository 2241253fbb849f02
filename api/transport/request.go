package transport

type CreateUserRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateTaskRequest struct {
	Title string `json:"title"`
}

type SubTaskRequest struct {
	Title string `json:"title"`
}

type CompleteTaskRequest struct {
	Completed bool `json:"completed"`
}

type BuddyRequestSend struct {
	Email string `json:"email"`
}

type BuddyRequestRespond struct {
	Accept bool `json:"accept"`
}

type PostMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	TaskID      string `json:"task_id"`
	TaskTitle   string `json:"task_title"`
	Text        string `json:"text"`
}
