package domain

// Bundle groups the records created by one ingested reading. It is what
// subscribers receive on the notification channel and what the ingest
// endpoint returns.
type Bundle struct {
	Measurement  Measurement  `json:"measurement"`
	ComfortIndex ComfortIndex `json:"comfort_index"`
	Alerts       []Alert      `json:"alerts"`
}
