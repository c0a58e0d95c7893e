// Copyright 2025 The Upstreamlb Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lb

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Registration identifies one of the Substrate's subscriptions to a
// PrioritySet, for log correlation when a callback fires or when teardown
// fails to revoke cleanly. The handle is released when the substrate
// that owns it is destroyed.
type Registration struct {
	id         uuid.UUID
	unregister func() error
}

func newRegistration(unregister func() error) Registration {
	return Registration{id: uuid.New(), unregister: unregister}
}

func (r Registration) String() string {
	return r.id.String()
}

func (r Registration) revoke() error {
	if r.unregister == nil {
		return nil
	}
	return r.unregister()
}

// closeRegistrations revokes every registration, aggregating any failures
// into a single error rather than stopping at the first one, so a caller
// sees every broken unsubscribe at once.
func closeRegistrations(regs ...Registration) error {
	var result *multierror.Error
	for _, reg := range regs {
		if err := reg.revoke(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
