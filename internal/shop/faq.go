package shop

import (
	"context"
	"encoding/json"
)

// AnswerFAQ queries the FAQ endpoint and returns the answer strings found.
// Besides the usual list envelopes, the endpoint may answer with a single
// {"answer": "..."} object. An empty slice means no answer.
func (c *Client) AnswerFAQ(ctx context.Context, query, bearer string) ([]string, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/faqs/answer", query, bearer, &raw); err != nil {
		return nil, err
	}

	if items := itemsEnvelope(raw); items != nil {
		answers := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err == nil && s != "" {
				answers = append(answers, s)
			}
		}
		return answers, nil
	}

	var single struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &single); err == nil && single.Answer != "" {
		return []string{single.Answer}, nil
	}
	return nil, nil
}
