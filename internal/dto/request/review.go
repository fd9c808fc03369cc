package request

type ReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,min=1,max=10"`
}

func (r ReviewRequest) AsPatch() ReviewPatchRequest {
	return ReviewPatchRequest{Text: &r.Text, Score: &r.Score}
}

type ReviewPatchRequest struct {
	Text  *string `json:"text" validate:"omitnil,min=1"`
	Score *int    `json:"score" validate:"omitnil,min=1,max=10"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (r CommentRequest) AsPatch() CommentPatchRequest {
	return CommentPatchRequest{Text: &r.Text}
}

type CommentPatchRequest struct {
	Text *string `json:"text" validate:"omitnil,min=1"`
}
