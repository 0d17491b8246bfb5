package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	InvalidCredentials     = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	InvalidRequest         = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	TooManyRequests        = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// 打卡提交模块错误。
var (
	WindowClosed         = Definition{Code: "WINDOW_CLOSED", Message: "Tea window is not open"}
	SubmissionInProgress = Definition{Code: "SUBMISSION_IN_PROGRESS", Message: "A submission is already being verified"}
	SubmissionNotFound   = Definition{Code: "SUBMISSION_NOT_FOUND", Message: "Submission not found"}
	InvalidTransition    = Definition{Code: "INVALID_TRANSITION", Message: "Submission state does not allow this operation"}
)

// 审核服务错误。
var (
	VerificationUnavailable = Definition{Code: "VERIFICATION_UNAVAILABLE", Message: "Verification service unavailable"}
	ReceiptRejected         = Definition{Code: "RECEIPT_REJECTED", Message: "Donation receipt was rejected"}
)

// 罚款与捐赠模块错误。
var (
	FineNotFound           = Definition{Code: "FINE_NOT_FOUND", Message: "Fine not found"}
	FineNotPayable         = Definition{Code: "INVALID_TRANSITION", Message: "Fine is not in a payable state"}
	CharityNotRecognized   = Definition{Code: "CHARITY_NOT_RECOGNIZED", Message: "Charity is not on the recognized list"}
	DonationAmountMismatch = Definition{Code: "DONATION_AMOUNT_MISMATCH", Message: "Donation amount does not match the expected amount"}
	DonationPending        = Definition{Code: "DONATION_PENDING", Message: "A donation for this fine is already awaiting verification"}
	DonationNotFound       = Definition{Code: "DONATION_NOT_FOUND", Message: "Donation not found"}
)

// 社交模块错误。
var (
	DuplicateFriendRequest = Definition{Code: "DUPLICATE_FRIEND_REQUEST", Message: "Friend request already exists"}
	FriendRequestNotFound  = Definition{Code: "FRIEND_REQUEST_NOT_FOUND", Message: "Friend request not found"}
	TeaPostNotFound        = Definition{Code: "TEA_POST_NOT_FOUND", Message: "Tea post not found"}
	CommentTooLong         = Definition{Code: "COMMENT_TOO_LONG", Message: "Comment exceeds 280 characters"}
	UserNotFound           = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	EmailAlreadyRegistered.Code:  EmailAlreadyRegistered,
	InvalidCredentials.Code:      InvalidCredentials,
	Unauthorized.Code:            Unauthorized,
	InvalidUserID.Code:           InvalidUserID,
	InvalidRequest.Code:          InvalidRequest,
	TooManyRequests.Code:         TooManyRequests,
	WindowClosed.Code:            WindowClosed,
	SubmissionInProgress.Code:    SubmissionInProgress,
	SubmissionNotFound.Code:      SubmissionNotFound,
	InvalidTransition.Code:       InvalidTransition,
	VerificationUnavailable.Code: VerificationUnavailable,
	ReceiptRejected.Code:         ReceiptRejected,
	FineNotFound.Code:            FineNotFound,
	CharityNotRecognized.Code:    CharityNotRecognized,
	DonationAmountMismatch.Code:  DonationAmountMismatch,
	DonationPending.Code:         DonationPending,
	DonationNotFound.Code:        DonationNotFound,
	DuplicateFriendRequest.Code:  DuplicateFriendRequest,
	FriendRequestNotFound.Code:   FriendRequestNotFound,
	TeaPostNotFound.Code:         TeaPostNotFound,
	CommentTooLong.Code:          CommentTooLong,
	UserNotFound.Code:            UserNotFound,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
