// Package gemini implements the provider.Provider interface against the
// Gemini generateContent REST endpoint. Requests carry a single text part;
// responses are reduced to the first candidate's first text part.
package gemini
