// Package sweep derives the runs of a parameterized job.
//
// A strategy document lists, per step and for the pipeline itself, the
// candidate values of each parameter as a JSON array literal. Flatten reduces
// the document to a single namespace keyed by "<strategy key>#<parameter>",
// Expand generates the cartesian product of the candidates and Reconcile finds
// the runs a user had selected in a freshly expanded list.
//
// Order matters everywhere: strategy entries and parameters keep document
// order, and the expansion order is what run indices refer to.
package sweep
