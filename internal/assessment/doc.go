// Package assessment grades learner responses against an exercise's expected
// answer. It provides exact matching with Hindi-aware normalization, MCQ
// checking, and an Assessor interface behind which an LLM-backed fuzzy
// assessor can be plugged without coupling the application core to a
// specific external service.
package assessment
