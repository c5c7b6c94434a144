package otp_test

import (
	"fmt"
	"log"
	"time"

	"github.com/jeremyhahn/go-totp/pkg/otp"
)

func ExampleEngine_GenerateCode() {
	engine := otp.DefaultEngine()

	code, err := engine.GenerateCode("JBSWY3DPEHPK3PXP", 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(code)
	// Output: 282760
}

func ExampleEngine_VerifyAt() {
	engine := otp.DefaultEngine()
	step := engine.TimeStep(time.Unix(1720000000, 0))

	code, err := engine.GenerateCode("JBSWY3DPEHPK3PXP", step+1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(engine.VerifyAt("JBSWY3DPEHPK3PXP", code, 1, step))
	fmt.Println(engine.VerifyAt("JBSWY3DPEHPK3PXP", code, 0, step))
	// Output:
	// true
	// false
}

func ExampleProvisioningURI() {
	fmt.Println(otp.ProvisioningURI("Blog", "JBSWY3DPEHPK3PXP", "My Blog"))
	// Output: otpauth://totp/Blog?secret=JBSWY3DPEHPK3PXP&issuer=My+Blog
}

func ExampleQRCodeURL() {
	fmt.Println(otp.QRCodeURL("Blog", "JBSWY3DPEHPK3PXP", "", otp.QROptions{}))
	// Output: https://api.qrserver.com/v1/create-qr-code/?data=otpauth%3A%2F%2Ftotp%2FBlog%3Fsecret%3DJBSWY3DPEHPK3PXP&size=200x200&ecc=M
}
