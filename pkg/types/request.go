package types

// QuoteRequest is the serialized form of a swap request sent to the
// solver bus quote endpoint.
type QuoteRequest struct {
	Assets   QuoteRequestAssets  `json:"assets"`
	Amounts  QuoteRequestAmounts `json:"amounts"`
	Deadline QuoteDeadline       `json:"deadline"`
	Slippage float64             `json:"slippage,omitempty"`
}

// QuoteRequestAssets names the input and output assets by their
// protocol-level identifiers.
type QuoteRequestAssets struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

// QuoteRequestAmounts carries on-chain encoded amounts. Out is present
// only when the caller targets an exact output amount.
type QuoteRequestAmounts struct {
	In  string `json:"in"`
	Out string `json:"out,omitempty"`
}

// QuoteDeadline is a relative deadline descriptor in milliseconds.
type QuoteDeadline struct {
	Type string `json:"type"`
	Ms   int64  `json:"ms"`
}
