/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package ldap

import "github.com/nabbar/g3proxy/errors"

const (
	ErrorParamEmpty errors.CodeError = iota + errors.MinPkgLDAP
	ErrorLDAPServerConfig
	ErrorLDAPServerDial
	ErrorLDAPServerDialClosing
	ErrorLDAPServerConnection
	ErrorLDAPServerTLS
	ErrorLDAPServerStartTLS
	ErrorLDAPContext
	ErrorLDAPBind
	ErrorLDAPSearch
	ErrorLDAPInvalidUID
	ErrorLDAPInvalidDN
	ErrorLDAPAttributeNotFound
	ErrorLDAPAttributeEmpty
	ErrorLDAPUserNotUniq
	ErrorLDAPUserNotFound
	ErrorLDAPGroupNotFound
	ErrorLDAPValidatorError
)

func init() {
	errors.RegisterFctMessage(getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorLDAPServerConfig:
		return "LDAP server config is not well defined"
	case ErrorLDAPServerDial:
		return "dialing server occurs error"
	case ErrorLDAPServerDialClosing:
		return "server connection is closing"
	case ErrorLDAPServerConnection:
		return "no connection opened on server"
	case ErrorLDAPServerTLS:
		return "cannot start dial to server with TLS Mode"
	case ErrorLDAPServerStartTLS:
		return "cannot init starttls mode on opening server connection"
	case ErrorLDAPContext:
		return "context is done or canceled"
	case ErrorLDAPBind:
		return "error on binding user/pass"
	case ErrorLDAPSearch:
		return "error on calling search on connected server"
	case ErrorLDAPInvalidUID:
		return "user uid attribute is invalid"
	case ErrorLDAPInvalidDN:
		return "user dn is invalid"
	case ErrorLDAPAttributeNotFound:
		return "requested attribute is not found in entry"
	case ErrorLDAPAttributeEmpty:
		return "requested attribute is empty"
	case ErrorLDAPUserNotUniq:
		return "user uid is not uniq"
	case ErrorLDAPUserNotFound:
		return "user uid is not found"
	case ErrorLDAPGroupNotFound:
		return "group is not found"
	case ErrorLDAPValidatorError:
		return "configuration validation error"
	}

	return ""
}
