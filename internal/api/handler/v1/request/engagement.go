package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ShareRequest struct {
	Platform string `json:"platform,omitempty"`
}

func (req *ShareRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Platform, validation.Length(0, 64)),
	)
}
