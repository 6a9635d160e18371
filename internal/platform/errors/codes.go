// Package errors provides structured error handling with i18n support.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Proposal errors
	CodeProposalNotFound           Code = "PROPOSAL_NOT_FOUND"
	CodeProposalNotActive          Code = "PROPOSAL_NOT_ACTIVE"
	CodeProposalNotFunded          Code = "PROPOSAL_NOT_FUNDED"
	CodeProposalAlreadyFunded      Code = "PROPOSAL_ALREADY_FUNDED"
	CodeProposalDeadlinePassed     Code = "PROPOSAL_DEADLINE_PASSED"
	CodeProposalLimitExceeded      Code = "PROPOSAL_LIMIT_EXCEEDED"
	CodeFundingPeriodTooShort      Code = "PROPOSAL_FUNDING_PERIOD_TOO_SHORT"
	CodeFundingPeriodTooLong       Code = "PROPOSAL_FUNDING_PERIOD_TOO_LONG"
	CodeInvalidTargetAmount        Code = "PROPOSAL_INVALID_TARGET_AMOUNT"
	CodeInvalidSharePrice          Code = "PROPOSAL_INVALID_SHARE_PRICE"
	CodeInvalidTotalShares         Code = "PROPOSAL_INVALID_TOTAL_SHARES"
	CodeSharesAlreadyIssued        Code = "PROPOSAL_SHARES_ALREADY_ISSUED"
	CodeSharesNotIssued            Code = "PROPOSAL_SHARES_NOT_ISSUED"
	CodeProposalEmptyAssetName     Code = "PROPOSAL_EMPTY_ASSET_NAME"
	CodeProposalInvalidAssetType   Code = "PROPOSAL_INVALID_ASSET_TYPE"
	CodeProposalInvalidPlatformFee Code = "PROPOSAL_INVALID_PLATFORM_FEE"

	// Investment errors
	CodeInvestmentNotFound        Code = "INVESTMENT_NOT_FOUND"
	CodeInvestmentBelowMinimum    Code = "INVESTMENT_BELOW_MINIMUM"
	CodeInvestmentExceedsShares   Code = "INVESTMENT_EXCEEDS_AVAILABLE_SHARES"
	CodeInvestmentZeroShares      Code = "INVESTMENT_ZERO_SHARES"
	CodeInvestmentZeroAmount      Code = "INVESTMENT_ZERO_AMOUNT"
	CodeInvestorLimitExceeded     Code = "INVESTOR_LIMIT_EXCEEDED"
	CodeNoRefundableInvestments   Code = "NO_REFUNDABLE_INVESTMENTS"
	CodeNoDistributableInvestment Code = "NO_DISTRIBUTABLE_INVESTMENTS"

	// Lockup errors
	CodeLockupNotStarted Code = "LOCKUP_NOT_STARTED"
	CodeLockupActive     Code = "LOCKUP_ACTIVE"

	// Rate limit errors
	CodeRateLimited            Code = "RATE_LIMITED"
	CodeRateLimitConfigInvalid Code = "RATE_LIMIT_CONFIG_INVALID"

	// Tour errors
	CodeTourNotFound          Code = "TOUR_NOT_FOUND"
	CodeTourNotActive         Code = "TOUR_NOT_ACTIVE"
	CodeTourInvalidDefinition Code = "TOUR_INVALID_DEFINITION"
	CodeTourEmptyID           Code = "TOUR_EMPTY_ID"

	// User/auth errors
	CodeUserNotFound         Code = "USER_NOT_FOUND"
	CodeUserEmptyDisplayName Code = "USER_EMPTY_DISPLAY_NAME"
	CodeUserInvalidEmail     Code = "USER_INVALID_EMAIL"
	CodeSessionInvalid       Code = "SESSION_INVALID"
	CodeUnauthorized         Code = "UNAUTHORIZED"

	// Support ticket errors
	CodeTicketNotFound          Code = "TICKET_NOT_FOUND"
	CodeTicketEmptySubject      Code = "TICKET_EMPTY_SUBJECT"
	CodeTicketInvalidPriority   Code = "TICKET_INVALID_PRIORITY"
	CodeTicketInvalidTransition Code = "TICKET_INVALID_STATUS_TRANSITION"

	// Assistant errors
	CodeConversationNotFound     Code = "CONVERSATION_NOT_FOUND"
	CodeAssistantEmptyPrompt     Code = "ASSISTANT_EMPTY_PROMPT"
	CodeAssistantQuotaExceeded   Code = "ASSISTANT_QUOTA_EXCEEDED"
	CodeAssistantProviderFailure Code = "ASSISTANT_PROVIDER_FAILURE"

	// Governance errors
	CodeGovernanceNotEligible Code = "GOVERNANCE_NOT_ELIGIBLE"

	// Listing errors
	CodeFilterInvalid  Code = "FILTER_INVALID"
	CodeOrderByInvalid Code = "ORDER_BY_INVALID"

	// Storage errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeFundingPeriodTooShort,
		CodeFundingPeriodTooLong,
		CodeInvalidTargetAmount,
		CodeInvalidSharePrice,
		CodeInvalidTotalShares,
		CodeProposalEmptyAssetName,
		CodeProposalInvalidAssetType,
		CodeProposalInvalidPlatformFee,
		CodeInvestmentBelowMinimum,
		CodeInvestmentZeroShares,
		CodeInvestmentZeroAmount,
		CodeTourInvalidDefinition,
		CodeTourEmptyID,
		CodeUserEmptyDisplayName,
		CodeUserInvalidEmail,
		CodeTicketEmptySubject,
		CodeTicketInvalidPriority,
		CodeAssistantEmptyPrompt,
		CodeRateLimitConfigInvalid,
		CodeFilterInvalid,
		CodeOrderByInvalid,
		CodeInvalidArgument:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow the operation
	case CodeProposalNotActive,
		CodeProposalNotFunded,
		CodeProposalAlreadyFunded,
		CodeProposalDeadlinePassed,
		CodeSharesAlreadyIssued,
		CodeSharesNotIssued,
		CodeNoRefundableInvestments,
		CodeNoDistributableInvestment,
		CodeLockupNotStarted,
		CodeLockupActive,
		CodeTourNotActive,
		CodeTicketInvalidTransition,
		CodeGovernanceNotEligible:
		return codes.FailedPrecondition

	// ResourceExhausted - caps and quotas
	case CodeProposalLimitExceeded,
		CodeInvestmentExceedsShares,
		CodeInvestorLimitExceeded,
		CodeRateLimited,
		CodeAssistantQuotaExceeded:
		return codes.ResourceExhausted

	// NotFound
	case CodeProposalNotFound,
		CodeInvestmentNotFound,
		CodeTourNotFound,
		CodeUserNotFound,
		CodeTicketNotFound,
		CodeConversationNotFound,
		CodeNotFound:
		return codes.NotFound

	// AlreadyExists
	case CodeAlreadyExists:
		return codes.AlreadyExists

	// Auth
	case CodeSessionInvalid:
		return codes.Unauthenticated
	case CodeUnauthorized:
		return codes.PermissionDenied

	// Upstream failures
	case CodeAssistantProviderFailure:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP statuses for the JSON API surface.
func (c Code) HTTPStatus() int {
	switch c.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
