// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package abi

import (
	"sync"
	"sync/atomic"

	"github.com/PigCharid/ethercore/value"
)

// 根据类型名找到解析好的类型描述，解析结果只生成一次

// typeinfo is an entry in the type cache.
type typeinfo struct {
	typ *value.Type
	err error // error from parseType, never cached
}

var theTC = newTypeCache()

// typeCache maps type names to parsed types. Reads go through an immutable
// map, writers copy it under the lock and publish the copy.
type typeCache struct {
	cur atomic.Value
	// This lock synchronizes writers.
	// 此锁同步写入程序。
	mu sync.Mutex
}

func newTypeCache() *typeCache {
	c := new(typeCache)
	c.cur.Store(make(map[string]*typeinfo))
	return c
}

func (c *typeCache) info(name string) *typeinfo {
	if info := c.cur.Load().(map[string]*typeinfo)[name]; info != nil {
		return info
	}
	// Not in the cache, need to parse the type. Only valid types under their
	// canonical name are kept, so lookups of arbitrary strings (struct names
	// checked by eip712, "uint08") don't grow the cache.
	// 不在缓存中，需要解析此类型。
	info := new(typeinfo)
	info.typ, info.err = parseType(name)
	if info.err != nil || info.typ.String() != name {
		return info
	}
	return c.generate(name, info)
}

func (c *typeCache) generate(name string, info *typeinfo) *typeinfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.cur.Load().(map[string]*typeinfo)
	// 再检查是否已经有了对应的key-value
	if info := cur[name]; info != nil {
		return info
	}

	// Copy cur to next.
	next := make(map[string]*typeinfo, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[name] = info

	// next -> cur
	c.cur.Store(next)
	return info
}
