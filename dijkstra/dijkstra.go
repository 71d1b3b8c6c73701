// seehuhn.de/go/cmapstrip - remove code points from font collection cmaps
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package dijkstra finds shortest paths in graphs where every edge leads
// from a vertex to a vertex with a larger number.
//
// Since the vertex numbers give a topological order, vertices can be
// finalised in increasing order and only vertices reachable from the start
// are ever expanded.  This keeps the search cheap for graphs like the
// 65537 vertices used to segment a format 4 cmap subtable, where most
// vertices are never visited.
package dijkstra

import (
	"container/heap"
	"errors"

	"golang.org/x/exp/slices"
)

// Graph describes a directed graph on the vertices 0, 1, 2, ...
// All edges must lead to a vertex with a larger number.
type Graph[E any] interface {
	// Edges returns the edges starting at vertex v.
	Edges(v uint32) []E

	// Length returns the cost of edge e.
	Length(e E) int

	// To returns the end vertex of edge e.
	To(e E) uint32
}

// ShortestPath returns the edges of a path from start to end with minimal
// total length.
func ShortestPath[E any](g Graph[E], start, end uint32) ([]E, error) {
	type label struct {
		dist int
		from uint32
		edge E
	}

	best := map[uint32]*label{start: {}}
	todo := &vertexHeap{start}
	for todo.Len() > 0 {
		v := heap.Pop(todo).(uint32)
		if v >= end {
			continue
		}
		dist := best[v].dist
		for _, e := range g.Edges(v) {
			w := g.To(e)
			if w <= v {
				return nil, errBackwardEdge
			}
			d := dist + g.Length(e)
			lw, seen := best[w]
			if !seen {
				best[w] = &label{dist: d, from: v, edge: e}
				heap.Push(todo, w)
			} else if d < lw.dist {
				lw.dist = d
				lw.from = v
				lw.edge = e
			}
		}
	}

	if _, ok := best[end]; !ok {
		return nil, ErrNoPath
	}

	var path []E
	for v := end; v != start; {
		l := best[v]
		path = append(path, l.edge)
		v = l.from
	}
	slices.Reverse(path)
	return path, nil
}

type vertexHeap []uint32

func (h vertexHeap) Len() int           { return len(h) }
func (h vertexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h vertexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *vertexHeap) Push(x any) {
	*h = append(*h, x.(uint32))
}

func (h *vertexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

var (
	// ErrNoPath is returned if the end vertex cannot be reached.
	ErrNoPath = errors.New("dijkstra: no path")

	errBackwardEdge = errors.New("dijkstra: edge does not lead forward")
)
