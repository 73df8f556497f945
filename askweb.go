// Package askweb provides a web-grounded question answering application.
// A user submits a natural language query, the query is forwarded to a hosted
// LLM with web grounding enabled, and the structured answer and its cited
// sources are stored and rendered.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, jwt/).
package askweb
