package transfer

type GroupAction struct {
	GroupKey string `json:"group_key"`
}

type ChangeRequestInput struct {
	GroupKey    string `json:"group_key"`
	RequestType string `json:"request_type"`
	Message     string `json:"message"`
}
