/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package ldap adapts the teacher's ldap.HelperLDAP client onto the
// auth.Source contract, so the server layer's credential check can use an
// LDAP directory without depending on its concrete client type.
package ldap

import (
	"context"

	liberr "github.com/nabbar/g3proxy/errors"
	liblog "github.com/nabbar/g3proxy/ldap"
)

// Source wraps a *liblog.HelperLDAP (the teacher's LDAP client) as an
// auth.Source.
type Source struct {
	client *liblog.HelperLDAP
}

func New(client *liblog.HelperLDAP) *Source {
	return &Source{client: client}
}

func (s *Source) Authenticate(ctx context.Context, username, password string) (bool, []string, error) {
	clone := s.client.Clone()
	clone.SetCredentials(username, password)

	if err := clone.AuthUser(username, password); err != nil {
		if isBindFailure(err) {
			return false, nil, nil
		}
		return false, nil, err
	}

	groups, gerr := clone.UserMemberOf(username)
	if gerr != nil {
		return true, nil, gerr
	}
	return true, groups, nil
}

// isBindFailure reports whether err represents a rejected bind (bad
// credentials) rather than a transport/connection failure - the former
// means "not authenticated", the latter is a real error to surface.
func isBindFailure(err liberr.Error) bool {
	return err.Code() == uint16(liblog.ErrorLDAPBind)
}
