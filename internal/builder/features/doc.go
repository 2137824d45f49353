// Package features runs the gherkin behaviour specs of the order builder.
package features
