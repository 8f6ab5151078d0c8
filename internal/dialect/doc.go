// Package dialect guesses the language of a file from its content when the
// name says nothing (no extension, stdin, .txt files holding markdown).
//
// Evidence is a list of scored hints collected line by line; the classifier
// picks the dialect with the highest score and callers apply thresholds.
// Files without convincing evidence are plain text.
package dialect
