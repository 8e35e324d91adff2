// Package mockapi serves the Pantopia REST API from memory.
//
// It exists so the console can be demoed and integration-tested without the
// real backend. Resources come from pantopia.SampleDataset. Extraction is
// simulated: POST /datasources/{id}/process/ queues a source, and every
// StepEvery status calls move it one step through InQueue, Extracting and
// Processed. A processed source gains generated paragraphs.
package mockapi
