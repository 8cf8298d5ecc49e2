package models

type ThreadResponse struct {
	Root    Message   `json:"root"`
	Replies []Message `json:"replies"`
}
