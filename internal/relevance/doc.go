// Package relevance scores content against a goal without side effects.
//
// It holds the pieces of the evaluator that need no I/O:
//
//   - Keywords: goal tokenisation into a frequency-ordered KeywordSet
//   - ScoreFields / ScoreText: the two keyword-overlap heuristics
//   - BuildPrompt: prompt construction from a template
//   - ParseResponse: tolerant parsing of the labelled model reply
//   - Blend: combination of the heuristic and model scores
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package relevance
