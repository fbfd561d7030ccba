// Package scene holds the hierarchical spatial tree built from a cabinet's
// parts: a single root plus one child per part. Nodes live in an arena
// owned by the Scene and refer to each other by NodeID.
package scene
