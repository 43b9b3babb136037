// Copyright 2024 The ChronoFrame Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunkid

import (
	"errors"
	"fmt"
)

// Order is a chunk's position within a partition, used both as the
// upsert order (higher order wins on overlapping rows) and the
// lock-acquisition order (chunks are always locked ascending). Zero is
// never valid.
type Order uint32

// OrderMin and OrderMax bound the legal range of an Order.
const (
	OrderMin Order = 1
	OrderMax Order = 1<<32 - 1
)

// ErrOrderOverflow is returned by Next when called on OrderMax.
var ErrOrderOverflow = errors.New("chunkid: chunk order overflow")

// NewOrder validates n and returns it as an Order. Zero is rejected.
func NewOrder(n uint32) (Order, error) {
	if n == 0 {
		return 0, errors.New("chunkid: chunk order must be nonzero")
	}
	return Order(n), nil
}

// Next returns the successor order, or ErrOrderOverflow at OrderMax.
func (o Order) Next() (Order, error) {
	if o == OrderMax {
		return 0, ErrOrderOverflow
	}
	return o + 1, nil
}

func (o Order) String() string {
	return fmt.Sprintf("ChunkOrder(%d)", uint32(o))
}
