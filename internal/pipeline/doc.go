// Package pipeline holds the pure rules of the lead pipeline: the property
// filter engine, the dashboard aggregation and the status model. Nothing in
// this package touches the store; callers pass in the list they already hold.
package pipeline
