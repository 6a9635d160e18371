package i18n

import "golang.org/x/text/language"

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown = "UNKNOWN"

	CodeProposalNotFound           = "PROPOSAL_NOT_FOUND"
	CodeProposalNotActive          = "PROPOSAL_NOT_ACTIVE"
	CodeProposalNotFunded          = "PROPOSAL_NOT_FUNDED"
	CodeProposalAlreadyFunded      = "PROPOSAL_ALREADY_FUNDED"
	CodeProposalDeadlinePassed     = "PROPOSAL_DEADLINE_PASSED"
	CodeProposalLimitExceeded      = "PROPOSAL_LIMIT_EXCEEDED"
	CodeFundingPeriodTooShort      = "PROPOSAL_FUNDING_PERIOD_TOO_SHORT"
	CodeFundingPeriodTooLong       = "PROPOSAL_FUNDING_PERIOD_TOO_LONG"
	CodeInvalidTargetAmount        = "PROPOSAL_INVALID_TARGET_AMOUNT"
	CodeInvalidSharePrice          = "PROPOSAL_INVALID_SHARE_PRICE"
	CodeInvalidTotalShares         = "PROPOSAL_INVALID_TOTAL_SHARES"
	CodeSharesAlreadyIssued        = "PROPOSAL_SHARES_ALREADY_ISSUED"
	CodeSharesNotIssued            = "PROPOSAL_SHARES_NOT_ISSUED"
	CodeProposalEmptyAssetName     = "PROPOSAL_EMPTY_ASSET_NAME"
	CodeProposalInvalidAssetType   = "PROPOSAL_INVALID_ASSET_TYPE"
	CodeProposalInvalidPlatformFee = "PROPOSAL_INVALID_PLATFORM_FEE"

	CodeInvestmentNotFound        = "INVESTMENT_NOT_FOUND"
	CodeInvestmentBelowMinimum    = "INVESTMENT_BELOW_MINIMUM"
	CodeInvestmentExceedsShares   = "INVESTMENT_EXCEEDS_AVAILABLE_SHARES"
	CodeInvestmentZeroShares      = "INVESTMENT_ZERO_SHARES"
	CodeInvestmentZeroAmount      = "INVESTMENT_ZERO_AMOUNT"
	CodeInvestorLimitExceeded     = "INVESTOR_LIMIT_EXCEEDED"
	CodeNoRefundableInvestments   = "NO_REFUNDABLE_INVESTMENTS"
	CodeNoDistributableInvestment = "NO_DISTRIBUTABLE_INVESTMENTS"

	CodeLockupNotStarted = "LOCKUP_NOT_STARTED"
	CodeLockupActive     = "LOCKUP_ACTIVE"

	CodeRateLimited            = "RATE_LIMITED"
	CodeRateLimitConfigInvalid = "RATE_LIMIT_CONFIG_INVALID"

	CodeTourNotFound          = "TOUR_NOT_FOUND"
	CodeTourNotActive         = "TOUR_NOT_ACTIVE"
	CodeTourInvalidDefinition = "TOUR_INVALID_DEFINITION"
	CodeTourEmptyID           = "TOUR_EMPTY_ID"

	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeUserEmptyDisplayName = "USER_EMPTY_DISPLAY_NAME"
	CodeUserInvalidEmail     = "USER_INVALID_EMAIL"
	CodeSessionInvalid       = "SESSION_INVALID"
	CodeUnauthorized         = "UNAUTHORIZED"

	CodeTicketNotFound          = "TICKET_NOT_FOUND"
	CodeTicketEmptySubject      = "TICKET_EMPTY_SUBJECT"
	CodeTicketInvalidPriority   = "TICKET_INVALID_PRIORITY"
	CodeTicketInvalidTransition = "TICKET_INVALID_STATUS_TRANSITION"

	CodeConversationNotFound     = "CONVERSATION_NOT_FOUND"
	CodeAssistantEmptyPrompt     = "ASSISTANT_EMPTY_PROMPT"
	CodeAssistantQuotaExceeded   = "ASSISTANT_QUOTA_EXCEEDED"
	CodeAssistantProviderFailure = "ASSISTANT_PROVIDER_FAILURE"

	CodeGovernanceNotEligible = "GOVERNANCE_NOT_ELIGIBLE"

	CodeFilterInvalid  = "FILTER_INVALID"
	CodeOrderByInvalid = "ORDER_BY_INVALID"

	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeInvalidArgument = "INVALID_ARGUMENT"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	tag:    language.AmericanEnglish,
	messages: map[Code]string{
		CodeUnknown: "An unexpected error occurred",

		// Proposal errors
		CodeProposalNotFound:           "The requested offering was not found",
		CodeProposalNotActive:          "This offering is no longer accepting investments",
		CodeProposalNotFunded:          "This offering has not reached its funding goal",
		CodeProposalAlreadyFunded:      "This offering has already been fully funded",
		CodeProposalDeadlinePassed:     "The funding deadline for this offering has passed",
		CodeProposalLimitExceeded:      "You have reached the maximum of {{.Max}} open offerings",
		CodeFundingPeriodTooShort:      "Funding period must be at least {{.MinDays}} days",
		CodeFundingPeriodTooLong:       "Funding period cannot exceed {{.MaxDays}} days",
		CodeInvalidTargetAmount:        "Target amount must be greater than zero",
		CodeInvalidSharePrice:          "Share price must be greater than zero",
		CodeInvalidTotalShares:         "Total shares must be greater than zero",
		CodeSharesAlreadyIssued:        "Shares have already been issued for this offering",
		CodeSharesNotIssued:            "Shares have not been issued for this offering yet",
		CodeProposalEmptyAssetName:     "Asset name cannot be empty",
		CodeProposalInvalidAssetType:   "Asset type is not supported",
		CodeProposalInvalidPlatformFee: "Platform fee cannot exceed 100%",

		// Investment errors
		CodeInvestmentNotFound:        "No investment found for this offering",
		CodeInvestmentBelowMinimum:    "Investment is below the minimum of {{.Minimum}}",
		CodeInvestmentExceedsShares:   "Investment exceeds the {{.Remaining}} shares remaining",
		CodeInvestmentZeroShares:      "Investment amount is too small to purchase a share",
		CodeInvestmentZeroAmount:      "Investment amount must be greater than zero",
		CodeInvestorLimitExceeded:     "This offering has reached its limit of {{.Max}} investors",
		CodeNoRefundableInvestments:   "There are no refundable investments for this offering",
		CodeNoDistributableInvestment: "There are no investments awaiting distribution",

		// Lockup errors
		CodeLockupNotStarted: "The lockup period for this offering has not started",
		CodeLockupActive:     "Shares are locked until {{.UnlockDate}}",

		// Rate limit errors
		CodeRateLimited:            "Too many {{.Operation}} requests; try again later",
		CodeRateLimitConfigInvalid: "The rate limit configuration is invalid",

		// Tour errors
		CodeTourNotFound:          "The requested tour was not found",
		CodeTourNotActive:         "No tour is currently active",
		CodeTourInvalidDefinition: "The tour definition is invalid",
		CodeTourEmptyID:           "Tour ID is required",

		// User/auth errors
		CodeUserNotFound:         "The requested user was not found",
		CodeUserEmptyDisplayName: "Display name cannot be empty",
		CodeUserInvalidEmail:     "Email address is invalid",
		CodeSessionInvalid:       "Your session has expired; sign in again",
		CodeUnauthorized:         "You are not allowed to perform this action",

		// Support ticket errors
		CodeTicketNotFound:          "The requested support ticket was not found",
		CodeTicketEmptySubject:      "Ticket subject cannot be empty",
		CodeTicketInvalidPriority:   "Ticket priority is invalid",
		CodeTicketInvalidTransition: "Cannot move ticket from {{.FromStatus}} to {{.ToStatus}}",

		// Assistant errors
		CodeConversationNotFound:     "The requested conversation was not found",
		CodeAssistantEmptyPrompt:     "Message text cannot be empty",
		CodeAssistantQuotaExceeded:   "Daily assistant message limit reached; upgrade to continue",
		CodeAssistantProviderFailure: "The assistant is temporarily unavailable",

		// Governance errors
		CodeGovernanceNotEligible: "This offering is not eligible for governance yet",

		// Listing errors
		CodeFilterInvalid:  "The filter expression is invalid",
		CodeOrderByInvalid: "The requested sort order is not supported",

		// Storage errors
		CodeNotFound:        "The requested resource was not found",
		CodeAlreadyExists:   "The resource already exists",
		CodeInvalidArgument: "The request could not be understood",
	},
}
