package model

// EngageRequest is the transport request for one inbound message.
type EngageRequest struct {
	SessionID    string `json:"session_id,omitempty"`
	Message      string `json:"message"`
	LanguageHint string `json:"language_hint,omitempty"`
}

// IntelReport is the wire form of accumulated intelligence.
type IntelReport struct {
	Entities             map[EntityType][]ExtractedEntity `json:"entities"`
	ExtractionConfidence float64                          `json:"extraction_confidence"`
}

// BuildIntelReport flattens an Intelligence accumulator for the API.
func BuildIntelReport(in Intelligence, extractionConfidence float64) IntelReport {
	report := IntelReport{
		Entities:             make(map[EntityType][]ExtractedEntity),
		ExtractionConfidence: extractionConfidence,
	}
	for _, t := range EntityTypes {
		if entities := in.Entities(t); len(entities) > 0 {
			report.Entities[t] = entities
		}
	}
	return report
}

// EngagementResult is returned to the caller after each turn.
type EngagementResult struct {
	SessionID string `json:"session_id"`

	ScamDetected   bool         `json:"scam_detected"`
	ScamConfidence float64      `json:"scam_confidence"`
	Category       ScamCategory `json:"category,omitempty"`
	Language       string       `json:"language"`

	TurnCount  int    `json:"turn_count"`
	Reply      string `json:"reply,omitempty"`
	Terminated bool   `json:"terminated"`

	TerminationReason TerminationReason `json:"termination_reason,omitempty"`

	Intel IntelReport `json:"intel"`

	// Degraded marks results produced under external-dependency
	// fallback (classifier or generator unavailable).
	Degraded bool `json:"degraded,omitempty"`

	// NotPersisted marks a turn whose result could not be written to
	// any store tier; the in-memory result is still returned.
	NotPersisted bool `json:"not_persisted,omitempty"`
}
