package service

import "github.com/google/uuid"

// Lock keys. Accounts, customers and emails live in separate key spaces.

func AccountKey(code uuid.UUID) string  { return "account:" + code.String() }
func CustomerKey(code uuid.UUID) string { return "customer:" + code.String() }
func EmailKey(email string) string      { return "email:" + email }
