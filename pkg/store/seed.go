package store

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agentforge/mettakg/pkg/types"
)

// Seed is domain knowledge loaded at process startup. Each agent ships
// a baked-in default seed and may layer additional YAML seed files on
// top of it.
type Seed struct {
	Domains map[types.Domain]SeedDomain `yaml:"domains"`
}

// SeedDomain groups the concepts and relationships of one domain.
type SeedDomain struct {
	Concepts      []SeedConcept      `yaml:"concepts"`
	Relationships []SeedRelationship `yaml:"relationships"`
}

// SeedConcept is one concept entry in a seed file.
type SeedConcept struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Properties  *types.Properties `yaml:"properties"`
	Confidence  float64           `yaml:"confidence"`
}

// SeedRelationship is one relationship entry in a seed file.
type SeedRelationship struct {
	From       string            `yaml:"from"`
	To         string            `yaml:"to"`
	Type       string            `yaml:"type"`
	Properties *types.Properties `yaml:"properties"`
}

// LoadSeed parses a YAML seed document.
func LoadSeed(r io.Reader) (*Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// LoadSeedFile parses a YAML seed file from disk.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// Apply writes the seed into the given stores and returns the number of
// concepts and relationships added.
func (s *Seed) Apply(concepts *ConceptStore, relationships *RelationshipStore) (int, int) {
	var nc, nr int
	for domain, dom := range s.Domains {
		for _, sc := range dom.Concepts {
			concepts.Put(&types.Concept{
				Name:        sc.Name,
				Description: sc.Description,
				Domain:      domain,
				Properties:  sc.Properties,
				Confidence:  sc.Confidence,
			})
			nc++
		}
		for _, sr := range dom.Relationships {
			relationships.Create(sr.From, sr.To, sr.Type, sr.Properties)
			nr++
		}
	}
	return nc, nr
}

// DefaultSeed returns the baked-in sample knowledge for the three demo
// domains. It panics only if the embedded document is malformed, which
// is a programming error.
func DefaultSeed() *Seed {
	var seed Seed
	if err := yaml.Unmarshal([]byte(defaultSeedYAML), &seed); err != nil {
		panic(fmt.Sprintf("store: invalid default seed: %v", err))
	}
	return &seed
}

const defaultSeedYAML = `
domains:
  healthcare:
    concepts:
      - name: Fever
        description: Elevated body temperature indicating illness
        properties:
          normal_range: 36.1-37.2C
          dangerous_threshold: 39.4C
          common_causes: [infection, inflammation, dehydration]
          treatments: [rest, hydration, medication]
      - name: Antibiotic
        description: Medication that fights bacterial infections
        properties:
          mechanism: inhibits_bacterial_growth
          effectiveness: bacterial_infections_only
          side_effects: [resistance, allergic_reactions]
      - name: Symptom
        description: Physical or mental indication of disease
        properties:
          types: [physical, mental, behavioral]
          severity_levels: [mild, moderate, severe]
    relationships:
      - {from: Fever, to: Antibiotic, type: TREATED_BY, properties: {effectiveness: conditional}}
      - {from: Fever, to: Symptom, type: IS_A, properties: {category: physical}}
      - {from: Antibiotic, to: Symptom, type: TREATS, properties: {scope: bacterial}}
  logistics:
    concepts:
      - name: Route Optimization
        description: Process of finding the most efficient route
        properties:
          algorithms: [Dijkstra, A*, Genetic]
          factors: [distance, time, fuel_cost]
          complexity: NP-hard
      - name: Inventory Management
        description: Control of stock levels and movement
        properties:
          methods: [JIT, EOQ, ABC_analysis]
          technologies: [RFID, barcode, IoT]
          benefits: [cost_reduction, efficiency]
      - name: Supply Chain
        description: Network of organizations involved in product delivery
        properties:
          components: [suppliers, manufacturers, distributors]
          optimization: [cost, time, quality]
    relationships:
      - {from: Route Optimization, to: Inventory Management, type: SUPPORTS, properties: {impact: high}}
      - {from: Route Optimization, to: Supply Chain, type: OPTIMIZES, properties: {magnitude: significant}}
      - {from: Inventory Management, to: Supply Chain, type: PART_OF, properties: {importance: critical}}
  finance:
    concepts:
      - name: DeFi
        description: Decentralized Finance protocols
        properties:
          protocols: [Uniswap, Compound, Aave]
          benefits: [permissionless, transparent, global]
          risks: [smart_contract, liquidity, regulatory]
      - name: Yield Farming
        description: Earning rewards by providing liquidity
        properties:
          mechanism: liquidity_provision
          rewards: [tokens, fees, governance]
          risks: [impermanent_loss, smart_contract]
      - name: Portfolio Management
        description: Strategic management of investment portfolio
        properties:
          strategies: [diversification, rebalancing, risk_management]
          tools: [analytics, monitoring, optimization]
    relationships:
      - {from: DeFi, to: Yield Farming, type: ENABLES, properties: {mechanism: liquidity_pools}}
      - {from: Yield Farming, to: Portfolio Management, type: REQUIRES, properties: {importance: critical}}
      - {from: DeFi, to: Portfolio Management, type: SUPPORTS, properties: {integration: seamless}}
`
