package http

type createDocumentReq struct {
	DocID    string            `json:"doc_id"`
	Filename string            `json:"filename"`
	Tags     map[string]string `json:"tags"`
	Location string            `json:"location"`
}

type updateDocumentReq struct {
	Tags     map[string]string `json:"tags"`
	Location *string           `json:"location"`
}
