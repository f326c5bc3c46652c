package domain

// OTPRecord is a single-use emailed passcode.
// PK: user_id, SK: otp_id. The sort key is a ULID, so key order equals
// creation order and the newest record is the last one in the partition.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OTPRecord struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	OTPID     string `json:"otp_id" dynamodbav:"otp_id"`
	Code      string `json:"-" dynamodbav:"code"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
