package models

// TitleCaption is the parsed result of the title/caption generation call.
type TitleCaption struct {
	Title   string `json:"title"`
	Caption string `json:"caption"`
}
