// Package transcript extracts structured status reports from free-form
// meeting transcripts using an LLM provider.
//
// Unlike the deterministic document parser, extraction quality here
// depends on the model. The provider is asked for a strict JSON shape
// and the response is decoded and normalized into the same ParsedReport
// structure the document parser produces, so the rest of the pipeline
// (resolve, load, validate) is shared between both paths.
package transcript
