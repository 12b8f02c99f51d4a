package solverbus

import "encoding/json"

// QuoteOption is one candidate quote from the solver bus. Solvers
// attach arbitrary metadata, so the full message is kept alongside the
// fields selection cares about.
type QuoteOption struct {
	AmountOut string
	Raw       json.RawMessage
}

func (q *QuoteOption) UnmarshalJSON(data []byte) error {
	var fields struct {
		AmountOut string `json:"amount_out"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	q.AmountOut = fields.AmountOut
	q.Raw = append(q.Raw[:0], data...)
	return nil
}

func (q QuoteOption) MarshalJSON() ([]byte, error) {
	if len(q.Raw) > 0 {
		return q.Raw, nil
	}
	return json.Marshal(struct {
		AmountOut string `json:"amount_out"`
	}{AmountOut: q.AmountOut})
}

// PublishResult is the relay's answer to a published intent.
type PublishResult struct {
	Status     string          `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	IntentHash string          `json:"intent_hash,omitempty"`
	Raw        json.RawMessage `json:"-"`
}
