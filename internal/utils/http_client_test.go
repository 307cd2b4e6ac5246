// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient(nil)
	require.NotNil(t, client)
	require.NotNil(t, client.Client)
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient(nil)
	client2 := NewHTTPClient(nil)

	assert.NotSame(t, client1.Client, client2.Client)
}

func TestNewHTTPClient_UsesGivenTransport(t *testing.T) {
	rt := &http.Transport{}
	client := NewHTTPClient(rt)

	got, err := client.Transport()
	require.NoError(t, err)
	assert.Same(t, rt, got)
}

func TestNewHTTPClient_NoRetries(t *testing.T) {
	client := NewHTTPClient(nil)
	assert.Equal(t, 0, client.RetryCount)
}
