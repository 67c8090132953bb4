package models

// Health represents the liveness or readiness of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemStatus represents the overall system status.
type SystemStatus struct {
	Status        HealthStatus     `json:"status"`
	Service       string           `json:"service"`
	Version       string           `json:"version"`
	Time          Timestamp        `json:"time"`
	UptimeSeconds int64            `json:"uptimeSeconds"`
	Cache         CacheStatus      `json:"cache"`
	Sources       []ProviderStatus `json:"sources"`
}

// CacheStatus describes the record cache.
type CacheStatus struct {
	Entries    int `json:"entries"`
	TTLSeconds int `json:"ttlSeconds"`
}

// ProviderStatus represents the status of an upstream source gateway.
type ProviderStatus struct {
	Provider      string       `json:"provider"`
	Status        HealthStatus `json:"status"`
	LastSuccessAt *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp   `json:"lastFailureAt,omitempty"`
	Message       *string      `json:"message,omitempty"`
}
