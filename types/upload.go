package types

type UploadEvidenceResp struct {
	Key    string `json:"key"`
	Url    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
