package email

// Self-contained HTML documents with inline CSS so they render the
// same in every mail client. SendTemplate fills them; the variable
// names line up with the data maps built in service.go.

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { margin: 0; padding: 24px; background: #f4f4f5; font-family: 'Helvetica Neue', Arial, sans-serif; color: #18181b; line-height: 1.5; }
        .card { max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; }
        .brand { background: #18181b; padding: 28px 32px; }
        .brand h1 { margin: 0; color: #fafafa; font-size: 20px; letter-spacing: 1px; }
        .brand span { color: #a1a1aa; font-size: 13px; }
        .body { padding: 32px; }
        .say { background: #f4f4f5; border-radius: 8px; padding: 12px 16px; margin: 8px 0; font-style: italic; }
        .btn { display: inline-block; background: #4f46e5; color: #ffffff; padding: 12px 28px; border-radius: 8px; text-decoration: none; font-weight: 600; }
        .fine { padding: 20px 32px; color: #a1a1aa; font-size: 12px; text-align: center; }
    </style>
</head>
<body>
    <div class="card">
        <div class="brand">
            <h1>VOXWALLET</h1>
            <span>The wallet you talk to</span>
        </div>
        <div class="body">
            <h2>Welcome, {{.UserName}}!</h2>
            <p>Your account is ready. Put on your headset and try saying:</p>
            <div class="say">&ldquo;Transfer 0.1 eth to alice&rdquo;</div>
            <div class="say">&ldquo;What&rsquo;s my balance?&rdquo;</div>
            <div class="say">&ldquo;Add a contact called bob&rdquo;</div>
            <p>Every transfer is read back to you and waits for your spoken
            confirmation before anything leaves your wallet. Receipts for
            confirmed transfers land in this inbox ({{.Email}}).</p>
            <p style="text-align: center; margin-top: 28px;">
                <a href="{{.BaseURL}}/dashboard" class="btn">Open your dashboard</a>
            </p>
        </div>
        <div class="fine">
            <p>&copy; 2026 VoxWallet &middot; You are receiving this because you created a VoxWallet account.</p>
        </div>
    </div>
</body>
</html>
`

const transferReceiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { margin: 0; padding: 24px; background: #f4f4f5; font-family: 'Helvetica Neue', Arial, sans-serif; color: #18181b; line-height: 1.5; }
        .card { max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; }
        .brand { background: #18181b; padding: 28px 32px; }
        .brand h1 { margin: 0; color: #fafafa; font-size: 20px; letter-spacing: 1px; }
        .brand span { color: #a1a1aa; font-size: 13px; }
        .body { padding: 32px; }
        .hero { background: #4f46e5; border-radius: 10px; padding: 24px; text-align: center; color: #ffffff; margin: 24px 0; }
        .hero .amount { font-size: 30px; font-weight: 700; }
        .detail { margin: 24px 0; border: 1px solid #e4e4e7; border-radius: 10px; }
        .detail .row { padding: 12px 16px; border-top: 1px solid #e4e4e7; }
        .detail .row:first-child { border-top: none; }
        .detail .k { font-size: 12px; color: #71717a; text-transform: uppercase; letter-spacing: 0.5px; }
        .detail .v { font-family: 'SF Mono', Menlo, monospace; font-size: 13px; word-break: break-all; }
        .btn { display: inline-block; background: #4f46e5; color: #ffffff; padding: 12px 28px; border-radius: 8px; text-decoration: none; font-weight: 600; }
        .fine { padding: 20px 32px; color: #a1a1aa; font-size: 12px; text-align: center; }
    </style>
</head>
<body>
    <div class="card">
        <div class="brand">
            <h1>VOXWALLET</h1>
            <span>Transfer receipt</span>
        </div>
        <div class="body">
            <p>Hello {{.UserName}},</p>
            <p>Your transfer is confirmed on chain.</p>
            <div class="hero">
                <div class="amount">{{.Amount}} {{.Asset}}</div>
                <div>sent to {{.Recipient}}</div>
            </div>
            <div class="detail">
                <div class="row">
                    <div class="k">Recipient address</div>
                    <div class="v">{{.ToAddress}}</div>
                </div>
                <div class="row">
                    <div class="k">Transaction hash</div>
                    <div class="v">{{.TxHash}}</div>
                </div>
                <div class="row">
                    <div class="k">Network</div>
                    <div class="v">{{.Network}}</div>
                </div>
                <div class="row">
                    <div class="k">Confirmed</div>
                    <div class="v">{{.ConfirmedAt}}</div>
                </div>
            </div>
            <p style="text-align: center; margin-top: 28px;">
                <a href="{{.BaseURL}}/transfers/{{.TransferID}}" class="btn">View transfer</a>
            </p>
        </div>
        <div class="fine">
            <p>&copy; 2026 VoxWallet &middot; Automated receipt, replies are not read.</p>
        </div>
    </div>
</body>
</html>
`

const transferFailedTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { margin: 0; padding: 24px; background: #f4f4f5; font-family: 'Helvetica Neue', Arial, sans-serif; color: #18181b; line-height: 1.5; }
        .card { max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; }
        .brand { background: #18181b; padding: 28px 32px; }
        .brand h1 { margin: 0; color: #fafafa; font-size: 20px; letter-spacing: 1px; }
        .brand span { color: #a1a1aa; font-size: 13px; }
        .body { padding: 32px; }
        .alert { background: #fef2f2; border: 1px solid #fca5a5; color: #991b1b; border-radius: 10px; padding: 16px; margin: 24px 0; }
        .detail { margin: 24px 0; border: 1px solid #e4e4e7; border-radius: 10px; }
        .detail .row { padding: 12px 16px; border-top: 1px solid #e4e4e7; }
        .detail .row:first-child { border-top: none; }
        .detail .k { font-size: 12px; color: #71717a; text-transform: uppercase; letter-spacing: 0.5px; }
        .detail .v { font-family: 'SF Mono', Menlo, monospace; font-size: 13px; word-break: break-all; }
        .btn { display: inline-block; background: #4f46e5; color: #ffffff; padding: 12px 28px; border-radius: 8px; text-decoration: none; font-weight: 600; }
        .fine { padding: 20px 32px; color: #a1a1aa; font-size: 12px; text-align: center; }
    </style>
</head>
<body>
    <div class="card">
        <div class="brand">
            <h1>VOXWALLET</h1>
            <span>Transfer failed</span>
        </div>
        <div class="body">
            <p>Hello {{.UserName}},</p>
            <p>Your transfer of <strong>{{.Amount}} {{.Asset}}</strong> to
            <strong>{{.Recipient}}</strong> did not go through.</p>
            <div class="alert">
                <strong>Reason:</strong> {{.Reason}}
            </div>
            <div class="detail">
                <div class="row">
                    <div class="k">Recipient address</div>
                    <div class="v">{{.ToAddress}}</div>
                </div>
                <div class="row">
                    <div class="k">Network</div>
                    <div class="v">{{.Network}}</div>
                </div>
            </div>
            <p>No funds have left your wallet. Say the transfer again whenever
            you want to retry.</p>
            <p style="text-align: center; margin-top: 28px;">
                <a href="{{.BaseURL}}/transfers/{{.TransferID}}" class="btn">View details</a>
            </p>
        </div>
        <div class="fine">
            <p>&copy; 2026 VoxWallet &middot; Automated notice, replies are not read.</p>
        </div>
    </div>
</body>
</html>
`
