// Package domain contains the intern, booking and holiday entities and
// their validation rules, independent of storage and transport.
package domain
