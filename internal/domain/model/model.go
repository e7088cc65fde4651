// Package model provides the model catalog domain: descriptors for the
// logical models the gateway exposes and the registry that loads them from
// the declarative configuration document.
package model

// Model describes one logical model the gateway can serve. Entries are
// loaded verbatim from the catalog document; ModelID is the caller-facing
// key and ModelName is the vendor-specific identifier (for Azure OpenAI it
// is the deployment name).
type Model struct {
	ModelID        string   `yaml:"modelId" json:"modelId"`
	ModelName      string   `yaml:"modelName" json:"modelName"`
	ProviderName   string   `yaml:"providerName" json:"providerName"`
	Temperature    *float32 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	SupportsVision bool     `yaml:"supportsVision" json:"supportsVision"`
	Description    string   `yaml:"description" json:"description"`
}

// UserStorageConfig names the table, partition key, and the environment
// variable that holds the storage connection string for the user store.
type UserStorageConfig struct {
	TableName              string `yaml:"tableName" json:"tableName"`
	PartitionKey           string `yaml:"partitionKey" json:"partitionKey"`
	ConnectionStringEnvVar string `yaml:"connectionStringEnvVar" json:"connectionStringEnvVar"`
}

// DefaultTemperature is applied when a catalog entry omits temperature.
const DefaultTemperature float32 = 0.7

// EffectiveTemperature returns the entry's temperature, falling back to the
// catalog default when the entry omitted it.
func (m *Model) EffectiveTemperature() float32 {
	if m.Temperature == nil {
		return DefaultTemperature
	}
	return *m.Temperature
}
