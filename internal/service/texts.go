package service

import (
	"fmt"

	"FRD_airdrop_bot/internal/model"
)

// Campaign copy and keyboard tags. All user-visible strings live here so
// the flow controller reads as pure dispatch.

const logoURL = "https://www.fifareward.io/fifarewardlogo.png"

const (
	discordURL       = "https://discord.com/invite/DC5Ta8bb"
	telegramGroupURL = "https://t.me/FifarewardLabs"
	twitterURL       = "https://twitter.com/@FRD_Labs"
	websiteURL       = "https://www.fifareward.io"
	mintNFTURL       = "https://www.fifareward.io/nft/"
)

// Inline keyboard callback tags.
const (
	btnDetails      = "details"
	btnJoinAirdrop  = "joinairdrop"
	btnTasksDone    = "Done"
	btnStatus       = "status"
	btnContinue     = "continue"
	btnSubmitWallet = "submit_wallet"
	btnSubmitEmail  = "submit_email"
	btnSubmitHandle = "submit_handle"
	btnYes          = "yes"
	btnNo           = "no"
)

func textOnboarding(firstName, link string, count int) string {
	return fmt.Sprintf("Hello! %s\n\n"+
		" Welcome!, I'm FRD Airdrop Bot, I can help you accumulate FRD tokens if you obey my instructions.\n\n"+
		"Here is your referral link: %s.\n\n"+
		"Your have *%d* referrals. \n\n"+
		"Keep sharing to partake in the FifaReward *10%%* Airdrop distribution to the community", firstName, link, count)
}

func textWelcomeBack(firstName string) string {
	return fmt.Sprintf("Hello! %s\n\n Welcome back\n", firstName)
}

const textAbout = "Fifareward is a layer 2 blockchain on BSC network, it is the first decentralized AI revolutionary betting Dapp on the blockchain. \n\n" +
	"Utilities include: \n\n" +
	"1) Betting\n" +
	"2) Staking \n" +
	"3) Farming \n" +
	"4) AI Powered Games\n" +
	"5) NFT Minting Engine And Market Place \n\n" +
	"==>) More in our road map \n\n"

var textJoinTasks = fmt.Sprintf("To join the Fifareward airdrop campaign, you must do the following tasks. \n\n"+
	"Join our;\n\n"+
	"1) <a href=%q>Discord</a> \n"+
	"2) <a href=%q>Telegram</a> \n"+
	"3) <a href=%q>Twitter handle</a> \n"+
	"4) <a href=%q>Register</a> in our website \n"+
	"5) <a href=%q>Mint NFT</a> in our website \n"+
	"6) Like and retweet our tweets \n\n",
	discordURL, telegramGroupURL, twitterURL, websiteURL, mintNFTURL)

const textTasksDone = "Congratulations on completing the tasks, you will be added to our FRD tokens airdrop list. \n\n" +
	"Pick what you want to submit;\n\n"

func textStatus(link string, count int) string {
	return fmt.Sprintf("Your referral link: %s.\n\n"+
		"Your have *%d* referrals. \n\n"+
		"Keep sharing to earn more airdrop in the FifaReward *10%%* Airdrop distribution to the community \n\n"+
		"Have you submitted your bep20 wallet address ?", link, count)
}

func textPrompt(kind model.CredentialKind) string {
	switch kind {
	case model.CredentialEmail:
		return "Send your email address to me;\n\n"
	case model.CredentialHandle:
		return "Send your Twitter handle to me;\n\n"
	default:
		return "Send your bep20 wallet address to me;\n\n"
	}
}

func textSaved(firstName string, kind model.CredentialKind) string {
	what := "bep20 address"
	switch kind {
	case model.CredentialEmail:
		what = "email address"
	case model.CredentialHandle:
		what = "handle"
	}
	return fmt.Sprintf("Hi! %s\n\n"+
		"Your %s is saved successfully, patiently wait for our airdrop community distribution.", firstName, what)
}

func textInvalid(kind model.CredentialKind) string {
	switch kind {
	case model.CredentialEmail:
		return "please send a valid email address, like name@example.com"
	case model.CredentialHandle:
		return "please send a valid handle, letters, digits and underscores only"
	default:
		return "please send only your bep20 address, don't attach any other text or number to it"
	}
}

func textAlreadySubmitted(kind model.CredentialKind) string {
	return fmt.Sprintf("You have already submitted your %s, the first one you sent is the one we keep.", kind)
}

func textMustJoin(firstName string) string {
	return fmt.Sprintf("Hi! %s\n\n"+
		"You must join using someone's referral link to participate in Fifareward airdrop.", firstName)
}

const textSubmittedThanks = "Congratulations on submitting your bep20 address and joining FRD airdrop. Patiently wait for the distribution date\n\n"

const textTryAgain = "Something went wrong on our side, please try again in a moment."

const textPermissionDenied = "You are not allowed to do that."

const textCleared = "All campaign data has been cleared."

const textExportCaption = "Airdrop CSV list."

const textUnknownCommand = "I don't know that command. Use /start to begin."

func submitKindButtons() []model.Button {
	return []model.Button{
		{Label: "Submit Wallet", Tag: btnSubmitWallet},
		{Label: "Submit Email", Tag: btnSubmitEmail},
		{Label: "Submit Handle", Tag: btnSubmitHandle},
	}
}
