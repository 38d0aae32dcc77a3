// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the hosted AI drafting
// gateway.
//
// The gateway speaks newline-delimited JSON over a single streaming chat
// endpoint. Each line carries a content fragment; the final line sets done.
// Billing failures surface as typed errors so callers can tell an empty
// wallet (402) from a duplicate charge reference (409).
//
// # Key Types
//
//   - Client: the streaming HTTP client, safe for concurrent use
//   - ClientConfig: base URL, credentials, model and timeouts
//   - ClientError: typed error with payment and conflict categories
//
// # Usage
//
//	client := gateway.NewClientWithConfig(&gateway.ClientConfig{
//	    BaseURL: "https://api.example.com",
//	    APIKey:  key,
//	})
//	err := client.Stream(ctx, prompt, func(token string) { ... })
package gateway
