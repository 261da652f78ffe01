// Package laderr provides the domain vocabulary for risk-and-resilience
// modeling: construct classes, relation predicates, and value enumerations.
//
// The vocabulary follows the LaDeRR ontology. Constructs are typed by class
// (Entity, Capability, Vulnerability, Resilience, Scenario) and connected by
// relation predicates (capabilities, exploits, disables, ...). A construct may
// hold several classes at once; the role classes Threat, Control, and Asset
// are never stored, they are views computed from relation patterns.
//
// # Predicates
//
// Predicates are short names used as triple predicates inside the fact graph.
// PredicateIRI maps a short name to its full ontology IRI for RDF export:
//
//	laderr.PredicateIRI(laderr.Exploits) // → "https://w3id.org/laderr#exploits"
//
// # Enumerations
//
// Three closed value sets exist: State (enabled/disabled) on dispositions,
// Situation (operational/incident) and Status (resilient/vulnerable) on
// scenarios. Each has a Valid method used by structural validation.
package laderr
