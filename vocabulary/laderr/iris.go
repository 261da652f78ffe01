package laderr

// Namespace is the base IRI for all LaDeRR ontology terms.
const Namespace = "https://w3id.org/laderr#"

// DefaultBaseURI is used for instance IRIs when a specification declares none.
const DefaultBaseURI = "https://laderr.laderr#"

// Class names identify the kinds a construct can hold.
// Stored classes describe what a construct is; the role classes
// (Threat, Control, Asset) are derived from relation patterns and
// appear only in exports.
const (
	ClassEntity        = "Entity"
	ClassDisposition   = "Disposition"
	ClassCapability    = "Capability"
	ClassVulnerability = "Vulnerability"
	ClassResilience    = "Resilience"
	ClassScenario      = "Scenario"
	ClassSpecification = "Specification"

	ClassThreat  = "Threat"
	ClassControl = "Control"
	ClassAsset   = "Asset"
)

// ClassIRI returns the full ontology IRI for a class name.
func ClassIRI(class string) string {
	return Namespace + class
}

// PredicateIRI returns the full ontology IRI for a relation predicate.
func PredicateIRI(predicate string) string {
	return Namespace + predicate
}
