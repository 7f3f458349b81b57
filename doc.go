// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package pfilhook implements a packet filter hook registry and dispatch
// core: a coordinator that lets independent packet-filter modules
// (firewalls, NAT engines, classifiers, tunnel encapsulators)
// cooperatively inspect and mutate packets at well-defined interception
// points, called hook heads, in a network stack.
//
// The package owns no policy and does no I/O. A caller obtains a *Head
// once from a *Registry, then on every packet calls Head.Run (or
// Head.RunInject, for the skip-ahead re-entry case) with the packet,
// interface, direction and protocol control block. Concurrently,
// administrative code calls AddHook/RemoveHook to mutate a head's hook
// lists.
//
// # Concurrency
//
// Head.Run/RunInject are the hot path: many packet-handling goroutines
// call them concurrently and must never block each other. AddHook,
// RemoveHook and Cookie are the cold, rare administrative path. Each
// Head serializes the two with its own rmlock.Lock: dispatch holds it
// shared, mutation holds it exclusive. The Registry's own mutex is held
// only to create, look up, or destroy heads - never across a dispatch.
//
// # Ordering
//
// A hook added to a head's input list is ordered by non-increasing
// Order; the output list, by non-decreasing Order. This asymmetry
// means a packet entering the stack and the same packet leaving it
// traverse registered filters in the same relative sequence - the
// first-installed filter at a given priority runs first in both
// directions. See Head.AddHook for the precise rule.
//
// # Skip-ahead re-entry
//
// A filter that re-injects a packet into the same head (for example,
// after reassembling fragments) calls Head.RunInject with its own
// cookie (obtained via Head.Cookie at registration time) instead of
// Head.Run. Dispatch then resumes immediately after that hook, so the
// re-injected packet is not re-examined by hooks that already saw it.
package pfilhook
