/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package stats

import (
	"github.com/stretchr/testify/mock"
)

// MockServer mock implementation of a stats Server
type MockServer struct {
	mock.Mock
}

// Reset mock
func (m *MockServer) Reset() {
	m.Called()
}

// SetCounter mock
func (m *MockServer) SetCounter(key string, val int64) {
	m.Called(key, val)
}

// UpdateCounterBy mock
func (m *MockServer) UpdateCounterBy(key string, count int64) {
	m.Called(key, count)
}
