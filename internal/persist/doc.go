// Package persist flattens a project into its on-disk JSON document and
// rebuilds the model from one.
//
// The document mirrors the editor's historical save format: entities carry
// their literal numeric values, and every field driven by an expression
// additionally carries a "<field>_exp" shadow key holding the expression
// string. On load the shadow keys are re-extracted into the binding
// registry and a single re-evaluation pass resynchronizes every computed
// value before anything is shown.
//
// Serialization is canonical: object keys sorted, strings NFC normalized,
// no HTML escaping, numbers in shortest round-trip form. Saving the same
// project twice yields identical bytes, which keeps documents diffable and
// golden-testable.
package persist
